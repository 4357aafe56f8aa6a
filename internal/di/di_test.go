package di

import "testing"

type counter struct{ n int }

func TestGetTokenBuildsOnce(t *testing.T) {
	c := NewContainer()
	builds := 0
	tok := NewToken[*counter]("test:counter")

	RegisterToken(c, tok, func(ServiceRegistry) *counter {
		builds++
		return &counter{n: 7}
	})

	first := GetToken(c, tok)
	second := GetToken(c, tok)

	if first != second {
		t.Errorf("GetToken returned different instances")
	}
	if builds != 1 {
		t.Errorf("factory ran %d times, want 1", builds)
	}
	if first.n != 7 {
		t.Errorf("n = %d, want 7", first.n)
	}
}

func TestFactoriesResolveDependencies(t *testing.T) {
	c := NewContainer()
	c.Register("config", 3)
	tok := NewToken[*counter]("test:dependent")
	RegisterToken(c, tok, func(sr ServiceRegistry) *counter {
		return &counter{n: sr.Get("config").(int) * 2}
	})

	if got := GetToken(c, tok).n; got != 6 {
		t.Errorf("n = %d, want 6", got)
	}
}

func TestGetUnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for unknown service")
		}
	}()
	NewContainer().Get("missing")
}

func TestCyclePanics(t *testing.T) {
	c := NewContainer()
	c.AddFactory("a", func(sr ServiceRegistry) any { return sr.Get("b") })
	c.AddFactory("b", func(sr ServiceRegistry) any { return sr.Get("a") })

	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for cycle")
		}
	}()
	c.Get("a")
}

func TestGetTokenOptionalNil(t *testing.T) {
	type relay interface{ Send() error }
	tok := NewToken[relay]("test:relay")

	c := NewContainer()
	RegisterToken(c, tok, func(ServiceRegistry) relay { return nil })

	if got := GetToken(c, tok); got != nil {
		t.Fatalf("expected nil optional service, got %v", got)
	}
}

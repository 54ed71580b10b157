package backend

import (
	"errors"
	"testing"

	"github.com/gogpu/fog"
)

// stubBackend satisfies fog.Backend for registry tests.
type stubBackend struct {
	name string
}

func (b *stubBackend) Pool() fog.TargetPool         { return nil }
func (b *stubBackend) Programs() fog.ProgramLibrary { return nil }
func (b *stubBackend) BeginFrame(label string) (fog.CommandEncoder, error) {
	return nil, errors.New("stub")
}

func stubFactory(name string) Factory {
	return func() (fog.Backend, error) {
		return &stubBackend{name: name}, nil
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	Register("test-backend", stubFactory("test-backend"))
	defer Unregister("test-backend")

	if !IsRegistered("test-backend") {
		t.Error("test-backend should be registered")
	}

	b, err := Get("test-backend")
	if err != nil {
		t.Fatalf("Get(test-backend) error = %v", err)
	}
	if b == nil {
		t.Fatal("Get(test-backend) returned nil")
	}
}

func TestRegistryGetUnregistered(t *testing.T) {
	if _, err := Get("nonexistent"); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Get(nonexistent) error = %v, want ErrBackendNotAvailable", err)
	}
}

func TestRegistryAvailable(t *testing.T) {
	Register("test-available", stubFactory("test-available"))
	defer Unregister("test-available")

	found := false
	for _, name := range Available() {
		if name == "test-available" {
			found = true
			break
		}
	}
	if !found {
		t.Error("Available() should include 'test-available'")
	}
}

func TestRegistryUnregister(t *testing.T) {
	Register("test-unregister", stubFactory("test-unregister"))

	if !IsRegistered("test-unregister") {
		t.Error("test-unregister should be registered")
	}

	Unregister("test-unregister")

	if IsRegistered("test-unregister") {
		t.Error("test-unregister should be unregistered")
	}
}

func TestRegistryDefaultSkipsFailingFactory(t *testing.T) {
	// A factory that fails to construct must not mask a working one.
	Register(BackendWGPU, func() (fog.Backend, error) {
		return nil, errors.New("no adapter")
	})
	Register(BackendSoft, stubFactory(BackendSoft))
	defer Unregister(BackendWGPU)
	defer Unregister(BackendSoft)

	b, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if _, ok := b.(*stubBackend); !ok {
		t.Errorf("Default() = %T, want fallback stub", b)
	}
}

func TestRegistryMustDefaultPanicsWhenEmpty(t *testing.T) {
	// Snapshot and clear the registry for the duration of the test.
	saved := map[string]Factory{}
	for _, name := range Available() {
		registryMu.RLock()
		saved[name] = backends[name]
		registryMu.RUnlock()
		Unregister(name)
	}
	defer func() {
		for name, factory := range saved {
			Register(name, factory)
		}
	}()

	defer func() {
		if r := recover(); r == nil {
			t.Error("MustDefault() with empty registry did not panic")
		}
	}()
	MustDefault()
}

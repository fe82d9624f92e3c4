package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/aretw0/senglish/pkg/adapters/memory"
	"github.com/aretw0/senglish/pkg/persistence/middleware"
	"github.com/aretw0/senglish/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunStateBagContract(t, mw(memory.NewBag()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	// Setup
	underlying := memory.NewBag()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	secure := mw(underlying)

	ctx := context.Background()

	// 1. Set
	if err := secure.Set(ctx, "secret", "my-secret-sauce"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// 2. Verify underlying bag directly (Should be encrypted)
	stored, err := underlying.Get(ctx, "secret")
	if err != nil {
		t.Fatalf("Underlying get failed: %v", err)
	}
	envelope, ok := stored.(map[string]any)
	if !ok {
		t.Fatalf("Expected envelope object, got %T", stored)
	}
	if _, ok := envelope[middleware.EnvelopeField]; !ok {
		t.Fatal("Expected __encrypted__ field in envelope")
	}
	if len(envelope) != 1 {
		t.Errorf("Envelope should hold nothing but the ciphertext, got %v", envelope)
	}

	// 3. Get via middleware (Should be decrypted)
	got, err := secure.Get(ctx, "secret")
	if err != nil {
		t.Fatalf("Get via middleware failed: %v", err)
	}
	if got != "my-secret-sauce" {
		t.Errorf("Expected 'my-secret-sauce', got %v", got)
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	// Setup
	underlying := memory.NewBag()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	ctx := context.Background()

	// 1. Set with OLD key
	if err := secureOld.Set(ctx, "data", "encrypted-with-old-key"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// 2. Get with NEW key (Active) + OLD key (Fallback)
	secureNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	got, err := secureNew.Get(ctx, "data")
	if err != nil {
		t.Fatalf("Get with rotated key failed: %v", err)
	}
	if got != "encrypted-with-old-key" {
		t.Errorf("Decryption with fallback key failed, got %v", got)
	}

	// 3. Set again (Should now use the NEW key)
	if err := secureNew.Set(ctx, "data", "encrypted-with-new-key"); err != nil {
		t.Fatalf("Set with new key failed: %v", err)
	}

	// 4. Verify we CANNOT read with just OLD key anymore
	if _, err := secureOld.Get(ctx, "data"); err == nil {
		t.Error("Expected failure when reading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_RejectsPlainValues(t *testing.T) {
	underlying := memory.NewBag()
	ctx := context.Background()
	if err := underlying.Set(ctx, "legacy", "clear text"); err != nil {
		t.Fatal(err)
	}

	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	if _, err := secure.Get(ctx, "legacy"); err == nil {
		t.Error("Expected error for a value without envelope")
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic for invalid key size")
		}
	}()
	middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
}

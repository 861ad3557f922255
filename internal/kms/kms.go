// Package kms seals configuration secrets with a key held in an external key
// management service. Sealed values are standard base64 of the KMS ciphertext.
package kms

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"gocloud.dev/secrets"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// Keeper encrypts and decrypts with a single KMS key. *secrets.Keeper implements it.
type Keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// OpenKeeper opens the key at keyURI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func OpenKeeper(ctx context.Context, keyURI string) (Keeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// Seal encrypts value and returns it base64 encoded.
func Seal(ctx context.Context, keeper Keeper, value string) (string, error) {
	ciphertext, err := keeper.Encrypt(ctx, []byte(value))
	if err != nil {
		return "", fmt.Errorf("failed to encrypt with KMS: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Unseal reverses Seal.
func Unseal(ctx context.Context, keeper Keeper, sealed string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(strings.TrimSpace(sealed))
	if err != nil {
		return "", fmt.Errorf("sealed value is not valid base64: %w", err)
	}
	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt with KMS: %w", err)
	}
	return string(plaintext), nil
}

// UnsealAll opens keyURI once and unseals every non-empty value in place.
func UnsealAll(ctx context.Context, keyURI string, values ...*string) (err error) {
	keeper, err := OpenKeeper(ctx, keyURI)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close KMS keeper: %w", closeErr)
		}
	}()

	for _, v := range values {
		if *v == "" {
			continue
		}
		plaintext, err := Unseal(ctx, keeper, *v)
		if err != nil {
			return err
		}
		*v = plaintext
	}
	return nil
}

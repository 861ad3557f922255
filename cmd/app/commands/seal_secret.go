package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/allisson/useradmin/internal/kms"
)

// RunSealSecret encrypts a configuration secret with the KMS key at keyURI and
// prints it as base64, ready for KEYCLOAK_CLIENT_SECRET or
// KEYCLOAK_DEFAULT_USER_PASSWORD. When value is empty the first line of
// io.Reader is sealed instead, which keeps the secret out of shell history.
//
// For local development use keyURI="base64key://<32-byte-base64-key>".
func RunSealSecret(ctx context.Context, keyURI, value string, io IOTuple) (err error) {
	if keyURI == "" {
		return errors.New("--kms-key-uri is required")
	}

	if value == "" {
		line, readErr := bufio.NewReader(io.Reader).ReadString('\n')
		if readErr != nil && line == "" {
			return fmt.Errorf("failed to read secret from stdin: %w", readErr)
		}
		value = strings.TrimRight(line, "\r\n")
	}
	if value == "" {
		return errors.New("secret value cannot be empty")
	}

	keeper, err := kms.OpenKeeper(ctx, keyURI)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close KMS keeper: %w", closeErr)
		}
	}()

	sealed, err := kms.Seal(ctx, keeper, value)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(io.Writer, "KMS_KEY_URI=%q\n", keyURI)
	_, _ = fmt.Fprintf(io.Writer, "SEALED_VALUE=%q\n", sealed)
	return nil
}

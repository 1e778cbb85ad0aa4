package firebase

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitFirebaseRequiresSettings(t *testing.T) {
	ctx := context.Background()

	_, err := InitFirebase(ctx, "", "bucket")
	assert.ErrorContains(t, err, "credentials path")

	_, err = InitFirebase(ctx, "creds.json", "")
	assert.ErrorContains(t, err, "bucket")

	_, err = InitFirebase(ctx, filepath.Join(t.TempDir(), "missing.json"), "bucket")
	assert.ErrorContains(t, err, "not found")
}

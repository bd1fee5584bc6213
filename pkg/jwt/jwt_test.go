package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	in := Identity{UserID: "u-1", Username: "kasir", Role: "CASHIER", TenantID: "t-1", BranchID: "b-1"}
	tok, err := Generate("secreto", in, "bengkel-pos", 5)
	require.NoError(t, err)

	out, err := Parse("secreto", tok)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := Generate("secreto", Identity{UserID: "u-1", Role: "OWNER"}, "bengkel-pos", 5)
	require.NoError(t, err)

	_, err = Parse("otro-secreto", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := Generate("secreto", Identity{UserID: "u-1", Role: "OWNER"}, "bengkel-pos", -1)
	require.NoError(t, err)

	_, err = Parse("secreto", tok)
	assert.Error(t, err, "un token vencido debe rechazarse")
}

func TestGenerate_SecretoVacio(t *testing.T) {
	_, err := Generate("", Identity{UserID: "u-1"}, "x", 5)
	assert.Error(t, err)
}

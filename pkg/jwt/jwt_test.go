package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/inventario-pos/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateParse_ConservaSesion(t *testing.T) {
	tok, exp, err := pkgjwt.Generate(pkgjwt.Params{
		Secret: secret, Issuer: "test", UserID: "u-1", SessionID: "s-1", Email: "a@b.co", ExpMinutes: 5,
	})
	require.NoError(t, err)
	assert.False(t, exp.IsZero())

	claims, err := pkgjwt.Parse(secret, tok, pkgjwt.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "s-1", claims.SessionID)
	assert.Equal(t, "a@b.co", claims.Email)
}

func TestParse_RefreshNoSirveComoAccess(t *testing.T) {
	tok, _, err := pkgjwt.Generate(pkgjwt.Params{
		Secret: secret, UserID: "u-1", SessionID: "s-1", TokenType: pkgjwt.TypeRefresh, ExpMinutes: 5,
	})
	require.NoError(t, err)

	_, err = pkgjwt.Parse(secret, tok, pkgjwt.TypeAccess)
	assert.ErrorIs(t, err, pkgjwt.ErrWrongTokenType)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, _, err := pkgjwt.Generate(pkgjwt.Params{Secret: secret, UserID: "u-1", ExpMinutes: 5})
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", tok, "")
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, _, err := pkgjwt.Generate(pkgjwt.Params{Secret: secret, UserID: "u-1", ExpMinutes: -1})
	require.NoError(t, err)

	_, err = pkgjwt.Parse(secret, tok, "")
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, _, err := pkgjwt.Generate(pkgjwt.Params{UserID: "u-1"})
	assert.Error(t, err)
}

package orchestrator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/backendclient"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/orchestrator"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want orchestrator.ErrorKind
	}{
		{"connection", fmt.Errorf("%w: dial tcp refused", backendclient.ErrConnection), orchestrator.KindConnection},
		{"business", &backendclient.BusinessError{Code: 400, Message: "campo inválido"}, orchestrator.KindBusiness},
		{"malformed", fmt.Errorf("%w: missing data", backendclient.ErrMalformed), orchestrator.KindMalformed},
		{"unknown", errors.New("boom"), orchestrator.KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orchestrator.Classify(tt.err))
		})
	}
}

func TestFriendlyMessageRewritesKnownBackendFragments(t *testing.T) {
	numeric := &backendclient.BusinessError{
		Code:    500,
		Message: "ValueError: invalid literal for int() with base 10: 'abc'",
	}
	assert.Equal(t,
		"Um dos filtros numéricos recebeu um valor não numérico. Revise os campos de faixa e tente novamente.",
		orchestrator.FriendlyMessage(numeric))

	execution := &backendclient.BusinessError{
		Code:    500,
		Message: "Falha ao executar consulta no warehouse",
	}
	assert.Equal(t,
		"Não foi possível executar a consulta no momento. Tente novamente em alguns instantes.",
		orchestrator.FriendlyMessage(execution))
}

func TestFriendlyMessageUnknownBusinessErrorSurfacesVerbatim(t *testing.T) {
	err := &backendclient.BusinessError{Code: 422, Message: "Canal não suportado para esta base"}
	assert.Equal(t, "Canal não suportado para esta base", orchestrator.FriendlyMessage(err))
}

func TestFriendlyMessageGenericFallbacks(t *testing.T) {
	conn := fmt.Errorf("%w: dial tcp refused", backendclient.ErrConnection)
	assert.Equal(t,
		"Falha de conexão com o serviço de geração. Verifique sua rede e tente novamente.",
		orchestrator.FriendlyMessage(conn))

	malformed := fmt.Errorf("%w: estimated_costs missing", backendclient.ErrMalformed)
	assert.Equal(t,
		"O serviço de geração retornou dados incompletos. Tente novamente.",
		orchestrator.FriendlyMessage(malformed))

	assert.Empty(t, orchestrator.FriendlyMessage(nil))
}

func TestFriendlyMessageWrappedBusinessError(t *testing.T) {
	// A business error wrapped by a flow still rewrites.
	wrapped := fmt.Errorf("audience flow: %w",
		&backendclient.BusinessError{Code: 500, Message: "falha ao executar a query"})
	assert.Equal(t,
		"Não foi possível executar a consulta no momento. Tente novamente em alguns instantes.",
		orchestrator.FriendlyMessage(wrapped))
}

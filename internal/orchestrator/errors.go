package orchestrator

import (
	"errors"
	"strings"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/backendclient"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/fields"
)

// ErrorKind is the user-facing failure taxonomy.
type ErrorKind string

const (
	// KindConnection: no response received from the backend.
	KindConnection ErrorKind = "connection"
	// KindBusiness: the backend answered success=false with a message.
	KindBusiness ErrorKind = "business"
	// KindMalformed: the backend claimed success but the data was missing or
	// structurally wrong.
	KindMalformed ErrorKind = "malformed"
	// KindValidation: client-side validation failed before any request.
	KindValidation ErrorKind = "validation"
	// KindInternal: anything else.
	KindInternal ErrorKind = "internal"
)

// messageRewrites maps known backend error substrings to friendlier pt-BR
// text. Unknown business messages surface verbatim.
var messageRewrites = []struct {
	substring string
	friendly  string
}{
	{
		substring: "invalid literal for int()",
		friendly:  "Um dos filtros numéricos recebeu um valor não numérico. Revise os campos de faixa e tente novamente.",
	},
	{
		substring: "falha ao executar",
		friendly:  "Não foi possível executar a consulta no momento. Tente novamente em alguns instantes.",
	},
}

// Classify maps an orchestration error to its taxonomy kind.
func Classify(err error) ErrorKind {
	var businessErr *backendclient.BusinessError
	switch {
	case errors.Is(err, backendclient.ErrConnection):
		return KindConnection
	case errors.As(err, &businessErr):
		return KindBusiness
	case errors.Is(err, backendclient.ErrMalformed):
		return KindMalformed
	case errors.Is(err, fields.ErrSuperseded):
		return KindInternal
	default:
		return KindInternal
	}
}

// FriendlyMessage maps an orchestration error to the text shown to the user.
// Known backend message fragments are rewritten; everything else keeps the
// backend's wording or a generic per-kind fallback.
func FriendlyMessage(err error) string {
	if err == nil {
		return ""
	}
	var businessErr *backendclient.BusinessError
	if errors.As(err, &businessErr) {
		lowered := strings.ToLower(businessErr.Message)
		for _, rw := range messageRewrites {
			if strings.Contains(lowered, rw.substring) {
				return rw.friendly
			}
		}
		return businessErr.Message
	}
	switch Classify(err) {
	case KindConnection:
		return "Falha de conexão com o serviço de geração. Verifique sua rede e tente novamente."
	case KindMalformed:
		return "O serviço de geração retornou dados incompletos. Tente novamente."
	default:
		return err.Error()
	}
}

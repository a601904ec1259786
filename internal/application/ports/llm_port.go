package ports

import "context"

// LLMService puerto de salida hacia el proveedor de texto generativo (Gemini, Anthropic, fake en tests).
// La aplicación solo conoce este contrato.
type LLMService interface {
	// GenerateText envía el prompt de sistema y el del usuario y devuelve el texto generado.
	// El contexto debe llevar timeout; la respuesta no se valida ni se acota.
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

package domain

const (
	ProviderGroq  = "groq"
	ProviderLocal = "local"
)

type GeneratedName struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

type NameErrorBody struct {
	Error    string `json:"error"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

type HealthStatus struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
}

type APIErrorBody struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

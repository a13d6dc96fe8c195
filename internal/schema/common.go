package schema

// ErrorResponse represents a standard error payload.
type ErrorResponse struct {
	Detail string `json:"detail" msgpack:"detail"`
}

// RootResponse represents the service banner returned by GET /.
type RootResponse struct {
	Message string `json:"message" msgpack:"message"`
	Version string `json:"version" msgpack:"version"`
	Health  string `json:"health" msgpack:"health"`
}

// HealthResponse represents the health check response payload.
type HealthResponse struct {
	Status      string  `json:"status" msgpack:"status"`
	ModelLoaded bool    `json:"model_loaded" msgpack:"model_loaded"`
	Uptime      float64 `json:"uptime" msgpack:"uptime"`
}

// ModelInfoResponse describes the inference session behind the service.
type ModelInfoResponse struct {
	ModelLoaded bool     `json:"model_loaded" msgpack:"model_loaded"`
	Providers   []string `json:"providers" msgpack:"providers"`
	InputNames  []string `json:"input_names" msgpack:"input_names"`
	OutputNames []string `json:"output_names" msgpack:"output_names"`
}

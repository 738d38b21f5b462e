package types

// Model is a *.gguf file found in the models directory or named directly by
// the configuration.
type Model struct {
	// File name, used as the model id.
	// example: tinyllama.Q4_K_M.gguf
	ID string `json:"id" example:"tinyllama.Q4_K_M.gguf"`
	// Display name; currently the file name.
	// example: tinyllama.Q4_K_M.gguf
	Name string `json:"name" example:"tinyllama.Q4_K_M.gguf"`
	// Absolute path on disk.
	// example: /home/user/models/llm/tinyllama.Q4_K_M.gguf
	Path string `json:"path" example:"/home/user/models/llm/tinyllama.Q4_K_M.gguf"`
	// Quantization guessed from the file name, empty when unknown.
	// example: Q4_K_M
	Quant string `json:"quant,omitempty" example:"Q4_K_M"`
	// File size in bytes.
	// example: 668788096
	SizeBytes int64 `json:"size_bytes" example:"668788096"`
}

package main

// General API documentation for swaggo. Run `swag init -g cmd/modelq/docs.go -o docs` to regenerate.
//
// @title           modelq API
// @version         1.0
// @description     HTTP API for a single-flight LLM request queue.
//
// @contact.name   modelq maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http

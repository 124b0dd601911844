package main

// Swagger general annotations for the serving daemon. Regenerate the docs
// package with: swag init -g cmd/mlserved/docs.go -o docs

// @title        mlserve API
// @version      1.0
// @description  HTTP surface for packaged model servers and the model router.
// @BasePath     /

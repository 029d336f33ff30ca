// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary lifecycle: load the node type
// catalog, register the field editors, and run an editing session over
// them, decoupled from any specific entrypoint like a CLI or server.
package app

// Package state holds the client's explicit state containers: credentials,
// session, device mirror, subscription mirror, locale and the installation
// id. Each container owns one kv namespace and is the only writer to it.
//
// Containers are safe for concurrent use. They are created once by Open and
// passed by reference to the services and the CLI.
package state

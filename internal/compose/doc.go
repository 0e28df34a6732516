// Package compose reads the Docker Compose descriptor and builds the
// command lines dbdock hands to the orchestration CLI.
//
// The descriptor is parsed with gopkg.in/yaml.v3. Only the fields dbdock
// needs are modeled: the top-level project name and, per service, the
// container name and published ports. Everything else in the file is left
// to Compose itself.
//
// Commands are built for either the Compose plugin ("docker compose") or the
// standalone binary ("docker-compose"); both accept the same arguments.
package compose

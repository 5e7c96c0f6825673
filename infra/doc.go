// Package infra contains technical adapters such as the persistence
// stores, the MQTT notifier and the metrics endpoint. These packages
// depend only on the interfaces defined in the core packages.
package infra

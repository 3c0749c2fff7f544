// Package mock provides test doubles for the ai interfaces.
package mock

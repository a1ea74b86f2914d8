// Package envcfg reads process settings from the environment, optionally
// seeded from a .env file. Variables already present in the environment win
// over .env entries.
package envcfg

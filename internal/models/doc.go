// Package models holds discrete-step simulations: no integrator, no dt,
// one Step is one update.
//
//   - [Counter]: sums its integer inputs
//   - [Life]: Conway's Game of Life, inputs are cells forced alive
package models

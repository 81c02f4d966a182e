// Package dynamo provides the particle relaxation engine.
//
// The package defines the state and driver for a damped particle system
// moving in a radial force field:
//
//   - [State]: particle positions and velocities (struct of arrays)
//   - [Params]: immutable run parameters, validated up front
//   - [Field]: radial force field (see package field)
//   - [Integrator]: advances a state by one step in place
//   - [Simulator]: runs a fixed number of steps and reports snapshots
//
// # Example
//
//	spec, _ := field.NewSpec(1, field.FirstZeros(30)...)
//	ev := field.NewEvaluator(spec)
//	s, _ := dynamo.New(ev, integrators.NewDampedEuler(), params)
//	res, _ := s.Run(ctx, dynamo.NewState(params.Particles, params.Bound, params.Seed))
//
// # Thread Safety
//
// Simulator instances are NOT safe for concurrent Run calls. Independent
// runs share nothing and may be executed in parallel, see Sweep in
// package experiment.
package dynamo

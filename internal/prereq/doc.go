// Package prereq resolves course prerequisites against a learner's completed
// courses and classifies every course as completed, available or locked.
//
// Everything here is a pure function over read-only inputs. The catalog and
// the overlap index can be built once and shared between goroutines; each
// call gets its own completed set.
package prereq

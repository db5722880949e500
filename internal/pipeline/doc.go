// Package pipeline holds the pure derivations of a processing run. Every
// function takes the segment set of one run and returns a fresh value;
// nothing here touches the Store.
package pipeline

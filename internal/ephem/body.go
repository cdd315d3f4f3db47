// Package ephem provides heliocentric ephemerides for solar system bodies.
//
// Two sources are available: a built-in analytic source based on Keplerian
// elements (KeplerSource) and a remote JPL Horizons source (HorizonsSource).
// Both return heliocentric ecliptic position vectors in AU.
package ephem

import (
	"fmt"
	"strings"
)

// BodyID identifies a solar system body. The set is fixed and closed.
type BodyID int

const (
	Sun BodyID = iota
	Mercury
	Venus
	Earth
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Moon

	numBodies
)

// Bodies lists every known body in display order.
var Bodies = []BodyID{Sun, Mercury, Venus, Earth, Mars, Jupiter, Saturn, Uranus, Neptune, Moon}

// Planets lists the eight major planets (no Sun, no Moon).
var Planets = []BodyID{Mercury, Venus, Earth, Mars, Jupiter, Saturn, Uranus, Neptune}

var bodyNames = [numBodies]string{
	"Sun", "Mercury", "Venus", "Earth", "Mars",
	"Jupiter", "Saturn", "Uranus", "Neptune", "Moon",
}

// NAIF IDs for Horizons queries. Planets use their barycenter-free body IDs.
var bodyNAIF = [numBodies]int{
	10, 199, 299, 399, 499, 599, 699, 799, 899, 301,
}

// String returns the body's display name.
func (b BodyID) String() string {
	if b < 0 || b >= numBodies {
		return "unknown"
	}
	return bodyNames[b]
}

// NAIFID returns the NAIF SPICE ID used by Horizons.
func (b BodyID) NAIFID() int {
	if b < 0 || b >= numBodies {
		return 0
	}
	return bodyNAIF[b]
}

// Valid reports whether the ID is in the closed body set.
func (b BodyID) Valid() bool {
	return b >= 0 && b < numBodies
}

// ParseBody resolves a body name, case-insensitively.
func ParseBody(name string) (BodyID, error) {
	for i, n := range bodyNames {
		if strings.EqualFold(name, n) {
			return BodyID(i), nil
		}
	}
	return -1, fmt.Errorf("unknown body %q (known: %s)", name, strings.Join(bodyNames[:], ", "))
}

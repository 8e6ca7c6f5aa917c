// Package domain contains the core model for wallclock: civil date-times, instants,
// offsets, resolution results and the error taxonomy.
//
// The domain is zone-data agnostic: it never loads time-zone rules itself. Zone
// interpretation happens in the usecase layer through a ports.ZoneRuleSource.
package domain

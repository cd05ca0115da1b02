// Package api implements the read-only HTTP inspection API of the sensor.
//
// New(sensor, records, registry) returns an http.Handler that serves:
//
//	GET /api/v1/health       sensor name, state and record counts
//	GET /api/v1/subscribers  registered subscriber names, in registration order
//	GET /api/v1/records      recent records; filters: subscriber, kind, limit
//	GET /api/v1/alerts       recent warning records only
//
// All endpoints respond with Content-Type: application/json and return 405
// for non-GET methods. Records are read from an in-memory sink; nothing is
// persisted.
package api

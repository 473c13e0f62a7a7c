// Package pkg provides the core libraries for farewatch fare discovery.
//
// # Overview
//
// Farewatch turns a small scan configuration (routes, cabins, price caps,
// a travel window) into a ranked monthly report of flight fares worth
// booking. The pkg directory is organized by pipeline stage:
//
//  1. [scan] - Orchestration (expand → search → normalize → filter → rank)
//  2. [provider] - Fare search boundary and the Amadeus client
//  3. [normalize] - Raw payload to canonical offer conversion
//  4. [fare] - Domain types, deduplication, ranking, month grouping
//  5. [report], [deliver] - HTML rendering and email/webhook delivery
//  6. [cache], [httputil], [config], [errors], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow through farewatch:
//
//	Config (routes, caps, window)
//	         ↓
//	scan.Request → queries → provider.Searcher (paced, retried, cached)
//	         ↓
//	normalize → fare.Offer → filter → dedupe → rank → month buckets
//	         ↓
//	report.Builder → deliver (email / webhook / dry run)
package pkg

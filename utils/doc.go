// Package utils provides time conversion shared by the encoder, the cache and
// the HTTP layer.
//
// It contains:
//   - Minute and epoch-second conversion against the 2016-01-01 reference epoch
//   - Parsing of query dates into UTC time ranges
//   - The InvalidTimeRange error returned for malformed queries
package utils

// Package cloudnl adapts the Google Cloud Natural Language API to the
// tagging.Tagger and polarity.Scorer interfaces.
//
// The v2 API has no syntax analysis, so the Tagger keeps tokens and part of
// speech from a local base tagger and overlays the entity spans Cloud
// reports. Requests are rate limited per client.
package cloudnl

// Package oauthsdk contains the wire types shared between the grantd server
// and its consumers, plus a small HTTP client that drives the authorization
// code flow end to end. The server's HTTP handlers use the error and
// response types; the client exists mainly for integration tests and demo
// applications.
package oauthsdk

// Package entitlement mounts the entitlement HTTP API:
//
//	GET  /quota?userId=   can the user create another listing
//	GET  /summary?userId= settings-page view, tolerant of billing outages
//	POST /sync            forced reconciliation for the caller, rate limited
//	POST /webhook         signed billing webhooks, no bearer token
//
// Every route except the webhook requires a bearer token. A caller may only
// read another user's data with the admin role.
package entitlement

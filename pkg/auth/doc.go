// Package auth carries the authenticated principal through the request
// context.
//
// Authentication itself (credential checks, token issuance) is an
// external collaborator; this package only defines the User value an
// authentication layer stores after verifying a request, and the
// context helpers downstream middleware uses to read it back.
package auth

// Package httpapi is the thin JSON transport over the engine: five public
// routes plus logout, mirrored onto Engine calls one-to-one. No
// authentication logic lives here; rejections never reveal whether an email
// exists or why a token failed.
package httpapi

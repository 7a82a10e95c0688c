// Package httpkv is the HTTP wire layer for cache nodes: a server handler
// exposing a cache at POST /put, GET /get/{key} and GET /health, and the
// matching client.Transport implementation used by the routing client.
package httpkv

// Package httpapi exposes the circulation commands and read views over HTTP/JSON.
//
// Every /v1 route requires a Bearer JWT signed with HS256. The claims name the tenant
// (owner_id), its role (Library or Book Store) and the acting staff member (sub).
//
// Failures are answered as {"error": "...", "code": "..."}: rule violations with 422,
// unknown records with 404, and concurrency conflicts that outlived all retries with 409.
package httpapi

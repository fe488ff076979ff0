// Package controllers provides the HTTP handlers for the field-operations API.
// File: controllers/respond.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-field-ops/authz"
)

// fail writes the uniform error envelope: a machine-stable code plus a
// human-readable message. Internal details never leak through here.
func fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": code, "message": message})
}

// denialMessages give each engine reason a stable human-readable message.
var denialMessages = map[authz.Reason]string{
	authz.ReasonRoleForbidden:     "Your role does not permit this operation",
	authz.ReasonTerritoryMismatch: "You can only act within your own assigned area",
	authz.ReasonNotOwner:          "You can only act on records you created",
	authz.ReasonResourceInactive:  "This record is inactive",
	authz.ReasonResourceNotFound:  "Record not found",
}

// failDecision maps an engine denial onto the wire: resource_not_found is a
// 404, every other reason is a 403 carrying the decision's reason code.
func failDecision(c *gin.Context, d authz.Decision) {
	status := http.StatusForbidden
	if d.Reason == authz.ReasonResourceNotFound {
		status = http.StatusNotFound
	}
	fail(c, status, string(d.Reason), denialMessages[d.Reason])
}

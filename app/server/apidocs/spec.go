package apidocs

import (
	"github.com/getkin/kin-openapi/openapi3"
	"net/http"
)

func okResponse(description string, schema *openapi3.Schema) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(description).WithJSONSchema(schema)}
}

func errorResponse(description string) *openapi3.ResponseRef {
	schema := openapi3.NewObjectSchema().
		WithProperty("ok", openapi3.NewBoolSchema()).
		WithProperty("message", openapi3.NewStringSchema())
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(description).WithJSONSchema(schema)}
}

// TokenAPI 描述 /api 下的无状态 token 接口
func TokenAPI() *openapi3.T {
	bearer := &openapi3.SecurityRequirements{openapi3.SecurityRequirement{"bearer": []string{}}}

	// POST /api/token
	tokenOp := openapi3.NewOperation()
	tokenOp.OperationID = "apiToken"
	tokenOp.Summary = "Exchange username and password for a signed token"
	tokenOp.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
		WithRequired(true).
		WithContent(openapi3.NewContentWithFormDataSchema(openapi3.NewObjectSchema().
			WithProperty("username", openapi3.NewStringSchema()).
			WithProperty("password", openapi3.NewStringSchema()).
			WithRequired([]string{"username", "password"}),
		))}
	tokenOp.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, okResponse("Signed token", openapi3.NewObjectSchema().
			WithProperty("ok", openapi3.NewBoolSchema()).
			WithProperty("token", openapi3.NewStringSchema()).
			WithProperty("expires_in", openapi3.NewInt64Schema()),
		)),
		openapi3.WithStatus(http.StatusBadRequest, errorResponse("Missing username or password")),
		openapi3.WithStatus(http.StatusUnauthorized, errorResponse("Invalid credentials")),
	)

	// POST /api/verify-token
	verifyOp := openapi3.NewOperation()
	verifyOp.OperationID = "apiVerifyToken"
	verifyOp.Summary = "Check a token signature and expiry"
	verifyOp.Security = bearer
	verifyOp.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, okResponse("Token is valid", openapi3.NewObjectSchema().
			WithProperty("ok", openapi3.NewBoolSchema()).
			WithProperty("user_id", openapi3.NewInt64Schema()).
			WithProperty("username", openapi3.NewStringSchema()),
		)),
		openapi3.WithStatus(http.StatusBadRequest, errorResponse("Missing token")),
		openapi3.WithStatus(http.StatusUnauthorized, errorResponse("Invalid or expired token")),
	)

	// GET /api/user-info
	userInfoOp := openapi3.NewOperation()
	userInfoOp.OperationID = "apiUserInfo"
	userInfoOp.Summary = "Current user of the token"
	userInfoOp.Security = bearer
	userInfoOp.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, okResponse("User info", openapi3.NewObjectSchema().
			WithProperty("ok", openapi3.NewBoolSchema()).
			WithProperty("user", openapi3.NewObjectSchema().
				WithProperty("id", openapi3.NewInt64Schema()).
				WithProperty("username", openapi3.NewStringSchema()).
				WithProperty("email", openapi3.NewStringSchema()).
				WithProperty("email_verified", openapi3.NewBoolSchema()).
				WithProperty("created_at", openapi3.NewDateTimeSchema()),
			),
		)),
		openapi3.WithStatus(http.StatusBadRequest, errorResponse("Missing token")),
		openapi3.WithStatus(http.StatusUnauthorized, errorResponse("Invalid or expired token")),
		openapi3.WithStatus(http.StatusNotFound, errorResponse("User no longer exists")),
	)

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   "Account portal token API",
			Version: "1.0.0",
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/api/token", &openapi3.PathItem{Post: tokenOp}),
			openapi3.WithPath("/api/verify-token", &openapi3.PathItem{Post: verifyOp}),
			openapi3.WithPath("/api/user-info", &openapi3.PathItem{Get: userInfoOp}),
		),
		Components: &openapi3.Components{
			SecuritySchemes: openapi3.SecuritySchemes{
				"bearer": &openapi3.SecuritySchemeRef{Value: openapi3.NewJWTSecurityScheme()},
			},
		},
	}
}

package models

// ControllerMetadata represents a controller and its routes using composition
type ControllerMetadata struct {
	BaseMetadataTrait
	Prefix string                // path prefix for all routes in this controller
	Routes []RouteMethodMetadata // all route methods, in declaration order
}

// RouteMethodMetadata represents a controller method carrying a route marker
type RouteMethodMetadata struct {
	MethodName string          // name of the handler method
	Path       string          // path fragment appended to the controller prefix
	Parameters []ParamMetadata // formal parameters in signature order
	ReturnType ReturnType      // return shape of the handler
	Line       int             // line of the method declaration
}

// ParamMetadata represents one formal parameter of a route method
type ParamMetadata struct {
	Name     string          // Go parameter name, "_" or "" when unnamed
	TypeExpr string          // Go type expression as written in the generated file
	TypeKey  string          // descriptor type key, e.g. "int", "uuid.UUID", "*http.Request"
	Source   ParameterSource // where the argument comes from
	Binding  string          // request parameter name for ParameterSourceRequest
}

// IsContext reports whether the parameter receives a request-scoped object
func (p ParamMetadata) IsContext() bool {
	return p.Source == ParameterSourceHTTPRequest || p.Source == ParameterSourceResponseWriter
}

// ReturnsError reports whether the handler returns an error
func (r RouteMethodMetadata) ReturnsError() bool {
	return r.ReturnType == ReturnTypeError
}

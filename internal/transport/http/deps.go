package http

import (
	"github.com/propertyhub/api/internal/infrastructure/dynamo"
	jwtinfra "github.com/propertyhub/api/internal/infrastructure/jwt"
	s3infra "github.com/propertyhub/api/internal/infrastructure/s3"
	"github.com/propertyhub/api/internal/infrastructure/sms"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo     *dynamo.UserRepo
	PropertyRepo *dynamo.PropertyRepo
	S3Store      *s3infra.Store
	SMSSender    sms.Sender
	JWTProvider  *jwtinfra.Provider
}

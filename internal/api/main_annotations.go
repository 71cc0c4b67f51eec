// @title           shelfd API
// @version         1.0
// @description     Self-hosted bookmark manager. Authenticate with a Personal Access Token.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerToken
// @in              header
// @name            Authorization
// @description     Type "Bearer" followed by a space and your API token. Example: "Bearer sh_xxx"
package api

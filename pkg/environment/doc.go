// Package environment names the deployment stages fieldhub understands and parses
// the APP_ENV value into one of them.
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	if env.IsProduction() {
//		// secure cookies, JSON logs
//	}
package environment

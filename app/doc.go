// Package app assembles fieldhub from configuration: it selects and connects
// the tenant and CSRF stores, builds the session verifier and cookie signer,
// and mounts every module on a chi router behind request-id, metrics, tenant,
// session and CSRF verification middleware.
//
//	cfg, err := app.LoadConfig()
//	if err != nil {
//		return err
//	}
//	a, err := app.New(ctx, cfg, app.WithMigrations())
//	if err != nil {
//		return err
//	}
//	defer a.Close()
//	return a.Run(ctx)
package app

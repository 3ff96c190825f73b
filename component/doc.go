// Package component defines lifecycle-managed dependencies and a registry
// that starts them in order and stops them in reverse.
//
// httpclient.Component implements Component, so an application can hold
// one client per upstream API and manage them together:
//
//	reg := component.NewRegistry()
//	reg.Register(httpclient.NewComponent(billingCfg))
//	reg.Register(httpclient.NewComponent(searchCfg))
//	if err := reg.StartAll(ctx); err != nil { ... }
//	defer reg.StopAll(ctx)
package component

// Package discovery announces and finds contactform servers over mDNS.
//
// `contactform serve --advertise` registers the "_contactform._tcp" service
// in "local." with a TXT record carrying the build version, the WebSocket
// path and whether TLS is on. `contactform scan` browses for the same
// service and lists what answers.
//
// # Usage Example
//
//	adv, err := discovery.Advertise("", 8080, version.Version, "/ws", false)
//	if err != nil {
//	    return err
//	}
//	defer adv.Shutdown()
//
//	instances, err := discovery.NewScanner().Scan(ctx)
//	for _, inst := range instances {
//	    fmt.Println(inst.BaseURL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Browsers and the server must be on the same network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery

// Package mqtt provides MQTT client connectivity for Ember Core.
//
// This package manages:
//   - Connection to the vendor's push broker with auto-reconnect
//   - Message publishing with bounded acknowledgment waits
//   - Topic subscriptions that survive reconnects
//   - TLS transport
//
// # Architecture
//
// The Ember cloud delivers zone telemetry over a TLS-secured MQTT broker.
// Authentication uses the REST session token: the username is "app/{token}"
// and the password the token itself, so credentials are supplied per
// connection rather than from configuration.
//
//	Ember Core ↔ Push Broker ↔ Vendor Cloud ↔ Gateways
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT, clientID, "app/"+token, token)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Subscribe(productID+"/"+uid+"/upload/pointdata", 0,
//	    func(topic string, payload []byte) error {
//	        return handleUpload(topic, payload)
//	    })
package mqtt

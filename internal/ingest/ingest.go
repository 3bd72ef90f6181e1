// FilePath: internal/ingest/ingest.go
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/breev/aqhub/internal/config"
	"github.com/breev/aqhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const insertTimeout = 5 * time.Second

// ReadingSink is where validated readings land.
type ReadingSink interface {
	RecordReading(ctx context.Context, reading *models.SensorReading) error
}

// wirePayload is the JSON shape published by the firmware. The device clock
// is not trusted: the server stamps the arrival time.
type wirePayload struct {
	SensorID      string   `json:"sensor_id"`
	Temperature   float64  `json:"temperature"`
	Humidity      float64  `json:"humidity"`
	CO2PPM        float64  `json:"co2_ppm"`
	AQICalculated float64  `json:"aqi_calculated"`
	MQ135Raw      *float64 `json:"mq135_raw,omitempty"`
	Battery       *float64 `json:"battery,omitempty"`
}

// Bridge subscribes to the sensor topic and appends readings to the log.
type Bridge struct {
	client mqtt.Client
	cfg    config.MQTTConfig
	sink   ReadingSink
}

// NewBridge creates an MQTT ingest bridge. Connect happens on Start.
func NewBridge(cfg config.MQTTConfig, sink ReadingSink) *Bridge {
	b := &Bridge{cfg: cfg, sink: sink}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			nuts.L.Warnf("[Ingest] Connection to broker lost: %v", err)
		}).
		SetOnConnectHandler(func(client mqtt.Client) {
			nuts.L.Infof("[Ingest] Connected to broker %s, subscribing to %s", cfg.BrokerURL, cfg.Topic)
			token := client.Subscribe(cfg.Topic, byte(cfg.QoS), b.handleMessage)
			token.Wait()
			if token.Error() != nil {
				nuts.L.Errorf("[Ingest] Failed to subscribe to %s: %v", cfg.Topic, token.Error())
			}
		})
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	b.client = mqtt.NewClient(opts)
	return b
}

// Start connects to the broker; the subscription is installed by the
// on-connect handler so it survives reconnects.
func (b *Bridge) Start() error {
	token := b.client.Connect()
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to connect to broker %s: %w", b.cfg.BrokerURL, token.Error())
	}
	return nil
}

// Stop disconnects from the broker.
func (b *Bridge) Stop() {
	b.client.Disconnect(250)
	nuts.L.Infof("[Ingest] Disconnected from broker")
}

func (b *Bridge) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var payload wirePayload
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		nuts.L.Warnf("[Ingest] Dropping malformed payload on %s: %v", msg.Topic(), err)
		return
	}
	if payload.SensorID == "" {
		nuts.L.Warnf("[Ingest] Dropping payload without sensor_id on %s", msg.Topic())
		return
	}

	reading := &models.SensorReading{
		SensorID:      payload.SensorID,
		AQICalculated: payload.AQICalculated,
		CO2PPM:        payload.CO2PPM,
		Temperature:   payload.Temperature,
		Humidity:      payload.Humidity,
		Battery:       payload.Battery,
		Timestamp:     time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
	defer cancel()
	if err := b.sink.RecordReading(ctx, reading); err != nil {
		nuts.L.Errorf("[Ingest] Failed to record reading for sensor %s: %v", payload.SensorID, err)
	}
}

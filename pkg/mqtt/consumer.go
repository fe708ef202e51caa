package mqtt

import (
	"context"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// IConsumer subscribes to one topic and feeds messages to a handler.
type IConsumer interface {
	Consume(ctx context.Context)
	SetHandler(handler func(topic string, message mqtt.Message) error)
}

type Consumer struct {
	client  mqtt.Client
	topic   string
	qos     byte
	handler func(topic string, message mqtt.Message) error
}

func NewConsumer(client mqtt.Client, topic string, qos byte, handler func(topic string, message mqtt.Message) error) *Consumer {
	return &Consumer{client: client, topic: topic, qos: qos, handler: handler}
}

func (c *Consumer) SetHandler(handler func(topic string, message mqtt.Message) error) {
	c.handler = handler
}

// Consume subscribes and blocks until the context is cancelled, then
// unsubscribes.
func (c *Consumer) Consume(ctx context.Context) {
	token := c.client.Subscribe(c.topic, c.qos, func(_ mqtt.Client, message mqtt.Message) {
		if c.handler == nil {
			log.Printf("mqtt: no handler set for topic %s", c.topic)
			return
		}
		if err := c.handler(message.Topic(), message); err != nil {
			log.Printf("mqtt: handler error on %s: %v", message.Topic(), err)
		}
	})
	if token.Wait() && token.Error() != nil {
		log.Printf("mqtt: subscribe error on %s: %v", c.topic, token.Error())
		return
	}
	log.Printf("mqtt: subscribed to %s", c.topic)

	<-ctx.Done()

	unsub := c.client.Unsubscribe(c.topic)
	unsub.Wait()
}

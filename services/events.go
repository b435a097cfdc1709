package services

import (
	"encoding/json"
	"log"

	"student_auth_ms/dtos/request"

	"github.com/IBM/sarama"
)

const (
	TopicStudentCreated         = "StudentCreatedEvent"
	TopicPasskeyRegistered      = "PasskeyRegisteredEvent"
	TopicAuthenticationVerified = "AuthenticationVerifiedEvent"
)

type IAuthEventPublisher interface {
	PublishStudentCreated(event *request.StudentCreatedEvent) error
	PublishPasskeyRegistered(event *request.PasskeyRegisteredEvent) error
	PublishAuthenticationVerified(event *request.AuthenticationVerifiedEvent) error
}

type KafkaEventPublisher struct {
	brokers []string
	enabled bool
}

func NewKafkaEventPublisher(brokers []string, enabled bool) IAuthEventPublisher {
	return &KafkaEventPublisher{brokers: brokers, enabled: enabled}
}

func (p *KafkaEventPublisher) PublishStudentCreated(event *request.StudentCreatedEvent) error {
	return p.publish(TopicStudentCreated, event)
}

func (p *KafkaEventPublisher) PublishPasskeyRegistered(event *request.PasskeyRegisteredEvent) error {
	return p.publish(TopicPasskeyRegistered, event)
}

func (p *KafkaEventPublisher) PublishAuthenticationVerified(event *request.AuthenticationVerifiedEvent) error {
	return p.publish(TopicAuthenticationVerified, event)
}

func (p *KafkaEventPublisher) publish(topic string, event interface{}) error {
	if !p.enabled {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	producer, err := sarama.NewSyncProducer(p.brokers, nil)
	if err != nil {
		log.Println("Failed to create sync producer:", err)
		return err
	}
	defer producer.Close()

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.StringEncoder(data),
	}
	partition, offset, err := producer.SendMessage(msg)
	if err != nil {
		log.Printf("Failed to send %s: %v\n", topic, err)
		return err
	}
	log.Printf("Successfully sent %s to partition %d at offset %d\n", topic, partition, offset)
	return nil
}

package interfaces

// ConsumerHandler processes one raw message from the mail topic. The mail
// worker is the only consumer today.
type ConsumerHandler interface {
	HandleMessage(message string) error
}

// ProducerHandler abstracts the event producer so the service layer can be
// tested with an in-memory recorder instead of a broker.
type ProducerHandler interface {
	PublishMessage(key, value []byte) error
}

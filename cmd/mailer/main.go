package main

import (
	"log"
	"strconv"

	"github.com/lnuais/member_service/config"
	"github.com/lnuais/member_service/infra/queue"
	"github.com/lnuais/member_service/internal/mailer"
)

func main() {
	cfg := config.LoadConfig()

	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		port = 587
	}

	mailSvc, err := mailer.New(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     port,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		FromName: cfg.MailFromName,
	})
	if err != nil {
		log.Fatalf("mail client init error: %v", err)
	}

	consumer := queue.NewKafkaConsumer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
		mailSvc,
	)

	log.Println("mail worker listening on topic", cfg.KafkaTopic)
	consumer.Listen()
}

// The email worker drains the reset-email queue: each job is deduplicated
// through Redis, rendered from the embedded templates, and sent via Mailgun.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mwikya/authd/config"
	"github.com/mwikya/authd/pkg/helpers"
	"github.com/mwikya/authd/pkg/mailer"
	mailtpl "github.com/mwikya/authd/pkg/mailer/templates"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if !cfg.MailSendEnabled {
		log.Println("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.RabbitMQEmailQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	ctx := context.Background()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var job mailer.EmailJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				log.Printf("bad message: %v", err)
				_ = msg.Nack(false, false)
				continue
			}

			// Redelivered jobs that already went out are acked and skipped.
			if job.ID != "" {
				fresh, err := helpers.RedisClaimOnce(ctx, rdb, "email:sent:"+job.ID, 24*time.Hour)
				if err == nil && !fresh {
					_ = msg.Ack(false)
					continue
				}
			}

			subject, text, html := job.Subject, job.Text, job.HTML
			if job.Template != "" {
				data, derr := decodeData(job)
				if derr != nil {
					log.Printf("decode %s failed: %v", job.Template, derr)
					_ = msg.Nack(false, false)
					continue
				}
				s, t, h, rerr := mailtpl.Render(job.Template, data)
				if rerr != nil {
					log.Printf("render %s failed: %v", job.Template, rerr)
					_ = msg.Nack(false, false)
					continue
				}
				subject, text, html = s, t, h
			}

			c, cancel := context.WithTimeout(ctx, 15*time.Second)
			if err := mg.Send(c, job.To, subject, text, html); err != nil {
				cancel()
				log.Printf("send failed: %v", err)
				_ = msg.Nack(false, true)
				continue
			}
			cancel()
			_ = msg.Ack(false)
		}
		close(done)
	}()

	log.Printf("email worker listening on queue=%s", cfg.RabbitMQEmailQueue)
	<-stop
	log.Printf("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// decodeData maps the job's loose JSON data onto the typed template data.
func decodeData(job mailer.EmailJob) (any, error) {
	b, err := json.Marshal(job.Data)
	if err != nil {
		return nil, err
	}
	switch job.Template {
	case mailtpl.ResetPassword:
		var d struct {
			AppName   string
			Email     string
			ResetURL  string
			Requested string
			IP        string
			UserAgent string
		}
		if err := json.Unmarshal(b, &d); err != nil {
			return nil, err
		}
		requested, err := time.Parse(time.RFC3339, d.Requested)
		if err != nil {
			requested = time.Now().UTC()
		}
		return mailtpl.ResetPasswordData{
			AppName:   d.AppName,
			Email:     d.Email,
			ResetURL:  d.ResetURL,
			Requested: requested,
			IP:        d.IP,
			UserAgent: d.UserAgent,
		}, nil
	default:
		return job.Data, nil
	}
}

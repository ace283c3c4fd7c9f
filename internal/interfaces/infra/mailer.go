package infra

import "context"

type Message struct {
	From    string
	To      string
	Subject string
	Text    string
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=Mailer --output=../../mocks
type Mailer interface {
	SendMail(ctx context.Context, msg Message) error
}

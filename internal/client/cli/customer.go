package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/services"
)

func (a *App) printOrders(orders []models.Order) {
	if len(orders) == 0 {
		a.println("No orders.")
		return
	}
	a.table("ID\tNEW\tSTATUS\tTYPE\tDATE\tNAME\tFILES", func(w io.Writer) {
		for _, o := range orders {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
				o.ID, newMark(o.IsNew), o.Status, o.OrderType, o.FormattedTimestamp, o.Name, len(o.Files))
		}
	})
}

func (a *App) listOrders(ctx context.Context, _ []string) error {
	orders, err := a.orders.List(ctx)
	if err != nil {
		return err
	}
	a.printOrders(orders)
	return nil
}

// newOrder collects the order form. Signed-in customers get their name and
// e-mail filled in.
func (a *App) newOrder(ctx context.Context, args []string) error {
	var form models.OrderForm
	if u := a.store.User(); u != nil {
		form.Name, form.Email = u.FullName(), u.Email
	}

	prompts := []struct {
		label string
		dst   *string
	}{
		{"Name", &form.Name},
		{"E-mail", &form.Email},
		{"Phone number", &form.PhoneNumber},
		{"City", &form.City},
		{"Street", &form.Street},
		{"Zip", &form.Zip},
	}
	for _, p := range prompts {
		if *p.dst != "" {
			continue
		}
		v, err := a.ask(p.label)
		if err != nil {
			return err
		}
		*p.dst = v
	}

	msg, err := GetMultiline(a.reader, "Message", a.out)
	if err != nil {
		return err
	}
	form.Message = msg

	uploads, closeAll, err := openUploads(args)
	if err != nil {
		return err
	}
	defer closeAll()
	form.Files = uploads

	order, orders, err := a.orders.Create(ctx, form)
	if order != nil {
		a.printf("Order #%d created.\n", order.ID)
	}
	if err != nil {
		return err
	}
	if a.isLoggedIn() {
		a.printOrders(orders)
	}
	return nil
}

func (a *App) printMessages(msgs []models.Message) {
	if len(msgs) == 0 {
		a.println("No messages.")
		return
	}
	var me int64 = -1
	if u := a.store.User(); u != nil {
		if id, err := strconv.ParseInt(u.ID, 10, 64); err == nil {
			me = id
		}
	}
	a.table("ID\tWHEN\tFROM\tREAD\tMESSAGE", func(w io.Writer) {
		for _, m := range msgs {
			from := "agency"
			if m.Sender == me {
				from = "me"
			} else if m.SenderData != nil && m.SenderData.Email != "" {
				from = m.SenderData.Email
			}
			text := strings.ReplaceAll(m.Message, "\n", " ")
			if n := len(m.Files); n > 0 {
				text += fmt.Sprintf(" [%d file(s)]", n)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%s\n", m.ID, m.FormattedTimestamp, from, m.Viewed, text)
		}
	})
}

func (a *App) listMessages(ctx context.Context, _ []string) error {
	msgs, err := a.messages.List(ctx)
	if err != nil {
		return err
	}
	a.printMessages(msgs)
	return nil
}

func (a *App) sendMessage(ctx context.Context, args []string) error {
	text, err := GetMultiline(a.reader, "Message", a.out)
	if err != nil {
		return err
	}
	uploads, closeAll, err := openUploads(args)
	if err != nil {
		return err
	}
	defer closeAll()

	msg, err := a.messages.Send(ctx, text, uploads...)
	if err != nil {
		return err
	}
	a.printf("Message #%d sent.\n", msg.ID)
	return nil
}

func (a *App) markRead(ctx context.Context, _ []string) error {
	n, err := a.messages.ToggleRead(ctx)
	if err != nil {
		return err
	}
	a.printf("%d message(s) marked as read.\n", n)
	return nil
}

func (a *App) contactUs(ctx context.Context, _ []string) error {
	var name, email string
	if u := a.store.User(); u != nil {
		name, email = u.FullName(), u.Email
	}
	var err error
	if name == "" {
		if name, err = a.ask("Name"); err != nil {
			return err
		}
	}
	if email == "" {
		if email, err = a.ask("E-mail"); err != nil {
			return err
		}
	}
	phone, err := a.ask("Phone number (optional)")
	if err != nil {
		return err
	}
	msg, err := GetMultiline(a.reader, "Message", a.out)
	if err != nil {
		return err
	}

	if err := a.contact.SendRequest(ctx, name, email, phone, msg); err != nil {
		return err
	}
	a.println("Thank you! We will get back to you soon.")
	return nil
}

func (a *App) listReviews(ctx context.Context, args []string) error {
	locale := "de"
	if len(args) > 0 {
		locale = args[0]
	}
	reviews, err := a.reviews.List(ctx, services.ReviewLanguage(locale))
	if err != nil {
		if services.IsCanceled(err) {
			return nil
		}
		return err
	}
	if len(reviews) == 0 {
		a.println("No reviews yet.")
		return nil
	}
	for _, r := range reviews {
		a.printf("%s %s (%s)\n  %s\n", strings.Repeat("*", r.Rating), r.AuthorName, r.ReviewTimestamp, r.Text)
	}
	return nil
}

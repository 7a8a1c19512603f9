package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	fbmodel "FProject/module/feedback/model"
)

// 问题编辑向导。会话状态每管理员一份存在 settings 集合里，
// 所以两个管理员可以各编各的，互不串线。

func (b *Bot) handleDefineEnter(ctx context.Context, in Inbound) error {
	if err := b.store.UpsertWizard(ctx, in.SenderID, fbmodel.WizardDefinePending); err != nil {
		return err
	}
	listing, err := b.renderQuestions(ctx)
	if err != nil {
		return err
	}
	b.send(ctx, in.SenderID, listing+"\n"+msgWizardAddAnother)
	return nil
}

func (b *Bot) handleDefineConfirm(ctx context.Context, in Inbound) error {
	switch strings.ToLower(strings.TrimSpace(in.Text)) {
	case "yes":
		if err := b.store.UpsertWizard(ctx, in.SenderID, fbmodel.WizardDefineNew); err != nil {
			return err
		}
		b.send(ctx, in.SenderID, msgWizardTypeQuestion)
	case "no":
		if err := b.store.ClearWizard(ctx, in.SenderID); err != nil {
			return err
		}
		b.send(ctx, in.SenderID, msgWizardDone)
	default:
		// 状态不变，重新要 yes/no
		b.send(ctx, in.SenderID, msgWizardYesOrNo)
	}
	return nil
}

func (b *Bot) handleDefineNewQuestion(ctx context.Context, in Inbound) error {
	if _, err := b.store.AddQuestion(ctx, strings.TrimSpace(in.Text)); err != nil {
		return err
	}
	if err := b.store.UpsertWizard(ctx, in.SenderID, fbmodel.WizardDefinePending); err != nil {
		return err
	}
	listing, err := b.renderQuestions(ctx)
	if err != nil {
		return err
	}
	b.send(ctx, in.SenderID, listing+"\n"+msgWizardAddAnother)
	return nil
}

func (b *Bot) handleRemoveEnter(ctx context.Context, in Inbound) error {
	if err := b.store.UpsertWizard(ctx, in.SenderID, fbmodel.WizardRemovePending); err != nil {
		return err
	}
	listing, err := b.renderQuestions(ctx)
	if err != nil {
		return err
	}
	b.send(ctx, in.SenderID, listing+"\n"+msgWizardRemovePrompt)
	return nil
}

func (b *Bot) handleRemoveTurn(ctx context.Context, in Inbound) error {
	token := strings.ToLower(strings.TrimSpace(in.Text))
	if token == "cancel" {
		if err := b.store.ClearWizard(ctx, in.SenderID); err != nil {
			return err
		}
		b.send(ctx, in.SenderID, msgWizardRemoveDone)
		return nil
	}

	questions, err := b.store.ListQuestions(ctx)
	if err != nil {
		return err
	}
	idx, convErr := strconv.Atoi(token)
	if convErr != nil || idx < 1 || idx > len(questions) {
		// 状态不变，带有效范围重新提示
		b.send(ctx, in.SenderID, fmt.Sprintf(msgWizardRemoveRange, len(questions)))
		return nil
	}

	if _, err := b.store.RemoveQuestion(ctx, idx); err != nil {
		return err
	}
	listing, err := b.renderQuestions(ctx)
	if err != nil {
		return err
	}
	// 留在 remove-pending，可以继续删
	b.send(ctx, in.SenderID, listing+"\n"+msgWizardRemovePrompt)
	return nil
}

func (b *Bot) renderQuestions(ctx context.Context) (string, error) {
	questions, err := b.store.ListQuestions(ctx)
	if err != nil {
		return "", err
	}
	if len(questions) == 0 {
		return msgQuestionListEmpty, nil
	}
	var sb strings.Builder
	sb.WriteString("Current questions:")
	for _, q := range questions {
		sb.WriteString(fmt.Sprintf("\n%d. %s", q.Index, q.Content))
	}
	return sb.String(), nil
}

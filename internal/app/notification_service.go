package app

import (
	"context"
	"fmt"

	"gohire/internal/common"
	"gohire/internal/domain/analytics"
	"gohire/internal/domain/contract"
	"gohire/internal/domain/profile"
	"gohire/internal/notify"
)

// NotificationService mails the counterparty when a contract is proposed or
// accepted. It runs in the worker, fed by the event consumer.
type NotificationService struct {
	contracts     contract.Repository
	profiles      profile.Repository
	mailer        notify.Mailer
	logger        Logger
	publicBaseURL string
}

func NewNotificationService(contracts contract.Repository, profiles profile.Repository, mailer notify.Mailer, logger Logger, publicBaseURL string) *NotificationService {
	return &NotificationService{contracts: contracts, profiles: profiles, mailer: mailer, logger: logger, publicBaseURL: publicBaseURL}
}

// RoutingKeys lists the events Handle acts on.
func (s *NotificationService) RoutingKeys() []string {
	return []string{"contract.created", "contract.accepted"}
}

func (s *NotificationService) Handle(ctx context.Context, event analytics.Event) error {
	if event.Name != "contract.created" && event.Name != "contract.accepted" {
		return nil
	}
	contractID, err := common.ParseUUID(event.Payload["contract_id"])
	if err != nil {
		logError(s.logger, fmt.Sprintf("event without contract id name=%s", event.Name))
		return nil
	}
	c, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil
		}
		return err
	}
	link := s.publicBaseURL + "/contracts"

	var mail notify.Mail
	switch event.Name {
	case "contract.created":
		professor, err := s.profiles.GetByID(ctx, c.ProfessorID)
		if err != nil {
			return err
		}
		mail = notify.ContractProposalMail(professor.Email, c.InstitutionName, c.Title, link)
	case "contract.accepted":
		institution, err := s.profiles.GetByID(ctx, c.InstitutionID)
		if err != nil {
			return err
		}
		mail = notify.ContractAcceptedMail(institution.Email, c.ProfessorName, c.Title, link+"/"+c.ID.String()+"/messages")
	}
	if mail.To == "" {
		return nil
	}
	if err := s.mailer.Send(ctx, mail); err != nil {
		return err
	}
	logInfo(s.logger, fmt.Sprintf("contract notification sent event=%s contract_id=%s", event.Name, c.ID))
	return nil
}

package notify

import (
	"fmt"
	"html"
)

func PasswordResetMail(to, link string) Mail {
	return Mail{
		To:      to,
		Subject: "Redefinição de senha",
		HTML: fmt.Sprintf(`<p>Recebemos um pedido para redefinir sua senha.</p>`+
			`<p><a href="%s">Definir nova senha</a></p>`+
			`<p>Se você não fez esse pedido, ignore este e-mail.</p>`, html.EscapeString(link)),
	}
}

func InvitationMail(to, institutionName, link string) Mail {
	return Mail{
		To:      to,
		Subject: "Convite para " + institutionName,
		HTML: fmt.Sprintf(`<p>%s convidou você para a equipe no GO! HIRE.</p>`+
			`<p><a href="%s">Aceitar convite</a></p>`, html.EscapeString(institutionName), html.EscapeString(link)),
	}
}

func ContractProposalMail(to, institutionName, contractTitle, link string) Mail {
	return Mail{
		To:      to,
		Subject: "Nova proposta: " + contractTitle,
		HTML: fmt.Sprintf(`<p>%s enviou uma proposta: <strong>%s</strong>.</p>`+
			`<p><a href="%s">Ver contratos</a></p>`, html.EscapeString(institutionName), html.EscapeString(contractTitle), html.EscapeString(link)),
	}
}

func ContractAcceptedMail(to, professorName, contractTitle, link string) Mail {
	return Mail{
		To:      to,
		Subject: "Proposta aceita: " + contractTitle,
		HTML: fmt.Sprintf(`<p>%s aceitou a proposta <strong>%s</strong>.</p>`+
			`<p><a href="%s">Abrir conversa</a></p>`, html.EscapeString(professorName), html.EscapeString(contractTitle), html.EscapeString(link)),
	}
}

package generator

import (
	"fmt"
	"strings"
)

var challengeInstructions = map[string]string{
	"review": "Crie questões de revisão geral cobrindo conteúdos variados de concursos públicos " +
		"(direito, administração, informática, raciocínio lógico). Misture os assuntos.",
	"glossary": "Crie questões sobre o significado de termos técnicos e jurídicos frequentes em " +
		"editais e provas de concurso. Cada questão apresenta um termo e pede sua definição correta.",
	"portuguese": "Crie questões de língua portuguesa no estilo de bancas de concurso: " +
		"concordância, regência, crase, ortografia, interpretação de frases curtas.",
}

func ChallengeSystemPrompt() string {
	return strings.TrimSpace(`
Você é um elaborador de questões para uma plataforma de estudos para concursos públicos brasileiros.
Gere apenas JSON válido, sem texto adicional, no formato:
{"items":[{"text":"...","options":["...","...","...","..."],"answer":"...","explanation":"..."}]}

Regras:
- Cada questão tem exatamente 4 alternativas.
- O campo "answer" repete exatamente o texto da alternativa correta.
- A explicação é curta (1-2 frases) e didática.
- Português formal, sem erros.`)
}

func BuildChallengeUserPrompt(challengeType string, count int) (string, error) {
	instructions, ok := challengeInstructions[challengeType]
	if !ok {
		return "", fmt.Errorf("unknown challenge type %q", challengeType)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Gere %d questões de múltipla escolha.\n\n", count)
	b.WriteString(instructions)
	b.WriteString("\n\nResponda somente com o JSON.")
	return b.String(), nil
}

func BuildTopicQuizUserPrompt(subjectName, topicName string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Gere %d questões de múltipla escolha sobre o tópico %q da matéria %q.\n", count, topicName, subjectName)
	b.WriteString("Nível de prova de concurso público. Responda somente com o JSON.")
	return b.String()
}

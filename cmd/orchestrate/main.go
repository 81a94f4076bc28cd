package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/sandboxcaixa/ideation-backend/internal/config"
	"github.com/sandboxcaixa/ideation-backend/internal/logging"
	"github.com/sandboxcaixa/ideation-backend/internal/orchestrate"
)

// demoMessages walks the agent through a full idea submission, one run per
// answer, on a single shared thread.
var demoMessages = []string{
	"INICIAR",
	"Programa Inclusão Digital Comunitária",
	"João Felipe de Almeida",
	"114567",
	"4467",
	"Universidade Católica de Brasília",
	"Muitos jovens têm pouco acesso a recursos de tecnologia, o que dificulta o desenvolvimento de competências digitais para o mercado de trabalho.",
	"O objetivo é ampliar em 30% o acesso a capacitações digitais em comunidades carentes. A metodologia envolve parcerias com escolas e ONGs locais, treinamentos semanais, oficinas práticas e acompanhamento remoto. Etapas: (1) diagnóstico da comunidade, (2) montagem de laboratórios, (3) oferta de cursos básicos de TI, (4) monitoramento de resultados e (5) relatório final.",
	"Jovens terão maior interesse em programas de capacitação digital se o ensino for prático e vinculado a oportunidades reais de trabalho.",
	"Aplicaremos testes A/B entre turmas presenciais e híbridas, medindo engajamento, taxa de conclusão dos cursos e posterior inserção em programas de estágio.",
	"Hoje apenas 15% dos jovens da comunidade participam de atividades formais de capacitação digital.",
	"Aumentar em 30% a participação em capacitações, com pelo menos 200 jovens concluindo o curso em um ano.",
	"Métricas: número de inscritos, taxa de conclusão, satisfação dos participantes, percentual de inserção em programas de estágio ou emprego.",
	"Risco: falta de equipamentos ou evasão escolar. Mitigação: parcerias com empresas para doação de computadores e acompanhamento próximo dos jovens para manter engajamento.",
}

func main() {
	logging.Setup()

	cfg, err := config.LoadOrchestrate()
	if err != nil {
		slog.Error("orchestrate configuration incomplete", "error", err)
		os.Exit(1)
	}

	store, err := orchestrate.NewThreadStore(cfg.ThreadStorePath)
	if err != nil {
		slog.Error("thread store unavailable", "error", err)
		os.Exit(1)
	}

	tokens := orchestrate.NewTokenManager(cfg.APIKey, cfg.IAMURL, nil)
	log := orchestrate.NewConversationLog(cfg.ConversationDir)
	client := orchestrate.NewClient(cfg.BaseURL, cfg.AgentID, tokens, store, log)

	// true starts a fresh thread, false continues the stored conversation
	startNew := true

	runs, err := client.SendSequence(context.Background(), demoMessages, startNew)
	if err != nil {
		slog.Error("sequence failed", "completed_runs", len(runs), "error", err)
		os.Exit(1)
	}

	fmt.Println("=== Respostas do assistente ===")
	for i, run := range runs {
		for _, text := range orchestrate.ExtractTexts(run) {
			fmt.Printf("[%d] %s\n", i+1, text)
		}
	}
}

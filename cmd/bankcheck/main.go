package main

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mkirillov/quizboard/internal/bank"
)

func main() {
	log.SetFlags(0)

	cmd := &cobra.Command{
		Use:           "bankcheck <file>",
		Short:         "Validate a quizboard question bank file and print its inventory.",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			stages, err := bank.Load(args[0])
			if err != nil {
				return err
			}
			printSummary(stages)
			return nil
		},
	}

	if err := cmd.Execute(); err != nil {
		log.Fatalf("bankcheck: %v", err)
	}
}

func printSummary(stages []bank.Stage) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "STAGE\tBASE\tCATEGORIES\tQUESTIONS\tSPECIALS")

	totalQuestions := 0
	specials := map[string]int{}

	for _, st := range stages {
		stageQuestions := 0
		stageSpecials := 0
		for _, cat := range st.Categories {
			for _, q := range cat.Questions {
				stageQuestions++
				if q.Special != "" {
					specials[q.Special]++
					stageSpecials++
				}
			}
		}
		totalQuestions += stageQuestions
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n",
			st.Name, st.BaseScore, len(st.Categories), stageQuestions, stageSpecials)
	}

	fmt.Fprintf(w, "\nTotal: %d stages, %d questions\n", len(stages), totalQuestions)
	for _, special := range []string{
		bank.SpecialHiddenCategory,
		bank.SpecialDoubleScore,
		bank.SpecialAuction,
		bank.SpecialFinal,
	} {
		if n := specials[special]; n > 0 {
			fmt.Fprintf(w, "  %s: %d\n", special, n)
		}
	}
}

package main

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/totegamma/salesdesk"
	"github.com/totegamma/salesdesk/client"
)

func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().Int("skip", 0, "items to skip")
	cmd.Flags().Int("limit", 100, "maximum items to return")
}

func pageFrom(cmd *cobra.Command) client.Page {
	skip, _ := cmd.Flags().GetInt("skip")
	limit, _ := cmd.Flags().GetInt("limit")
	return client.Page{Skip: skip, Limit: limit}
}

// decodeData reads the --data flag into v.
func decodeData(cmd *cobra.Command, v any) error {
	data, _ := cmd.Flags().GetString("data")
	if data == "" {
		return errors.New("--data is required")
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return errors.Wrap(err, "invalid --data")
	}
	return nil
}

func newClientesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clientes",
		Short: "Manage client leads",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List client leads",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			company, _ := cmd.Flags().GetString("company")

			var result []salesdesk.ClienteLead
			var err error
			switch {
			case name != "":
				result, err = a.client.Clientes().SearchByName(cmd.Context(), name)
			case company != "":
				result, err = a.client.Clientes().SearchByCompany(cmd.Context(), company)
			default:
				result, err = a.client.Clientes().List(cmd.Context(), pageFrom(cmd))
			}
			if err != nil {
				return err
			}
			a.print(cmd, result)
			return nil
		},
	}
	addPageFlags(list)
	list.Flags().String("name", "", "search by name")
	list.Flags().String("company", "", "search by company")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show a client lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.Clientes().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.print(cmd, result)
			return nil
		},
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a client lead from --data JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			var data salesdesk.ClienteLeadCreate
			if err := decodeData(cmd, &data); err != nil {
				return err
			}
			result, err := a.client.Clientes().Create(cmd.Context(), data)
			if err != nil {
				return err
			}
			a.print(cmd, result)
			return nil
		},
	}
	create.Flags().String("data", "", "JSON payload")

	update := &cobra.Command{
		Use:   "update ID",
		Short: "Update a client lead from --data JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data salesdesk.ClienteLeadUpdate
			if err := decodeData(cmd, &data); err != nil {
				return err
			}
			result, err := a.client.Clientes().Update(cmd.Context(), args[0], data)
			if err != nil {
				return err
			}
			a.print(cmd, result)
			return nil
		},
	}
	update.Flags().String("data", "", "JSON payload")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a client lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client.Clientes().Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, get, create, update, del)
	return cmd
}

func newChamadasCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chamadas",
		Short: "Manage calls",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List calls",
		RunE: func(cmd *cobra.Command, args []string) error {
			resultado, _ := cmd.Flags().GetString("resultado")
			cliente, _ := cmd.Flags().GetString("cliente")

			result, err := a.client.Chamadas().List(cmd.Context(), pageFrom(cmd), client.ChamadaFilter{
				Resultado: salesdesk.ResultadoChamada(resultado),
				ClienteID: cliente,
			})
			if err != nil {
				return err
			}
			a.print(cmd, result)
			return nil
		},
	}
	addPageFlags(list)
	list.Flags().String("resultado", "", "filter by outcome (sucesso, falha, em_andamento)")
	list.Flags().String("cliente", "", "filter by client id")

	create := &cobra.Command{
		Use:   "create",
		Short: "Register a call from --data JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			var data salesdesk.ChamadaCreate
			if err := decodeData(cmd, &data); err != nil {
				return err
			}
			result, err := a.client.Chamadas().Create(cmd.Context(), data)
			if err != nil {
				return err
			}
			a.print(cmd, result)
			return nil
		},
	}
	create.Flags().String("data", "", "JSON payload")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a call",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client.Chamadas().Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, create, del)
	return cmd
}

func newVendasCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendas",
		Short: "Manage sales",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List sales",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			result, err := a.client.Vendas().List(cmd.Context(), pageFrom(cmd), salesdesk.StatusVenda(status))
			if err != nil {
				return err
			}
			a.print(cmd, result)
			return nil
		},
	}
	addPageFlags(list)
	list.Flags().String("status", "", "filter by status (em_negociacao, fechada, perdida, cancelada)")

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a sale from --data JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			var data salesdesk.VendaCreate
			if err := decodeData(cmd, &data); err != nil {
				return err
			}
			result, err := a.client.Vendas().Create(cmd.Context(), data)
			if err != nil {
				return err
			}
			a.print(cmd, result)
			return nil
		},
	}
	create.Flags().String("data", "", "JSON payload")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a sale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client.Vendas().Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, create, del)
	return cmd
}

func newHistoricoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "historico",
		Short: "Manage the chat history",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List chat messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.HistoricoChat().List(cmd.Context(), pageFrom(cmd))
			if err != nil {
				return err
			}
			a.print(cmd, result)
			return nil
		},
	}
	addPageFlags(list)

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the whole chat history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client.HistoricoChat().Clear(cmd.Context())
		},
	}

	cmd.AddCommand(list, clearCmd)
	return cmd
}

func newSugestoesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sugestoes",
		Short: "Manage AI suggestions",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List suggestions",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := client.SugestaoFilter{}
			filter.ChamadaID, _ = cmd.Flags().GetString("chamada")
			if cmd.Flags().Changed("aceita") {
				v, _ := cmd.Flags().GetString("aceita")
				aceita, err := strconv.ParseBool(v)
				if err != nil {
					return errors.Wrap(err, "invalid --aceita")
				}
				filter.Aceita = &aceita
			}

			result, err := a.client.Sugestoes().List(cmd.Context(), pageFrom(cmd), filter)
			if err != nil {
				return err
			}
			a.print(cmd, result)
			return nil
		},
	}
	addPageFlags(list)
	list.Flags().String("aceita", "", "filter by accepted state (true or false)")
	list.Flags().String("chamada", "", "filter by call id")

	accept := &cobra.Command{
		Use:   "accept ID",
		Short: "Accept a suggestion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.Sugestoes().Accept(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.print(cmd, result)
			return nil
		},
	}

	cmd.AddCommand(list, accept)
	return cmd
}

package cli

import (
	"fmt"

	"github.com/manifoldco/promptui"

	"pfeifer.dev/trackd/cereal"
)

func interactive() {
	prompt := promptui.Select{
		Label: "Select Action",
		Items: []string{"Settings", "Watch"},
	}

	_, result, err := prompt.Run()

	if err != nil {
		fmt.Printf("Prompt failed %v\n", err)
		return
	}

	switch result {
	case "Settings":
		settings()
	case "Watch":
		watch()
	}
}

func settings() {
	items := settingItems()
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Title | cyan }}",
		Inactive: "  {{ .Title }}",
		Selected: "{{ .Title | green }}",
		Details:  "{{ .Description | faint }}",
	}
	prompt := promptui.Select{
		Label:     "Select Setting",
		Items:     items,
		Templates: templates,
		Size:      len(items),
	}

	idx, _, err := prompt.Run()
	if err != nil {
		fmt.Printf("Prompt failed %v\n", err)
		return
	}

	it := items[idx]
	c := cereal.Control{Type: it.MessageType}
	switch it.state {
	case settingsExit:
		interactive()
		return
	case settingsInput:
		input := promptui.Prompt{
			Label: it.Title(),
			Validate: func(value string) error {
				_, err := controlFor(it, value)
				return err
			},
		}
		value, err := input.Run()
		if err != nil {
			fmt.Printf("Prompt failed %v\n", err)
			return
		}
		if c, err = controlFor(it, value); err != nil {
			fmt.Println(err)
			return
		}
	}

	pub := cereal.NewControlPublisher()
	if err := pub.Send(c, true); err != nil {
		fmt.Printf("Could not send %s: %v\n", c.Type, err)
	}
}

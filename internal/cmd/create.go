package cmd

import (
	"github.com/jimezsa/vacancyctl/internal/models"
	"github.com/jimezsa/vacancyctl/internal/vacancy"
)

// CreateCmd has two modes: --hh-id imports a posting from HH, the field
// flags create one by hand. The modes are mutually exclusive.
type CreateCmd struct {
	HHID string `name:"hh-id" help:"Import the vacancy from HH by its id." xor:"title,company,address,logo,description,status,link"`

	Title       string `help:"Vacancy title." xor:"title"`
	Company     string `help:"Company name." xor:"company"`
	Address     string `help:"Company address." xor:"address"`
	Logo        string `help:"Company logo URL." xor:"logo"`
	Description string `help:"Vacancy description (HTML allowed)." xor:"description"`
	Status      string `help:"Status: active, closed, draft, outdated (default active)." xor:"status"`
	LinkHHID    string `name:"link-hh-id" help:"HH id to store on a hand-made vacancy (optional)." xor:"link"`
}

func (c *CreateCmd) fields() map[models.Field]string {
	return map[models.Field]string{
		models.FieldTitle:          c.Title,
		models.FieldCompanyName:    c.Company,
		models.FieldCompanyAddress: c.Address,
		models.FieldCompanyLogo:    c.Logo,
		models.FieldDescription:    c.Description,
		models.FieldHHID:           c.LinkHHID,
	}
}

func (c *CreateCmd) Run(ctx *Context) error {
	if err := ctx.requireSession(); err != nil {
		return err
	}

	form := vacancy.NewCreateForm(ctx.Service, ctx.navigator(), ctx.Logger)
	defer form.Close()

	if c.HHID != "" {
		form.SetImportMode(true)
		form.SetHHID(c.HHID)
	} else {
		for field, value := range c.fields() {
			if err := form.Set(field, value); err != nil {
				return err
			}
		}
		if c.Status != "" {
			if err := form.Set(models.FieldStatus, c.Status); err != nil {
				return err
			}
		}
	}

	stop := ctx.startIndicator("Creating vacancy...")
	err := form.Submit(ctx.base())
	stop()
	if err != nil {
		return failure(err, form.State().Error)
	}

	if c.HHID != "" {
		ctx.UI.Successf("Vacancy imported from HH (%s)", c.HHID)
	} else {
		ctx.UI.Successf("Vacancy created")
	}
	return nil
}

package dto

import "github.com/jhoicas/Albaranes-api/internal/domain/entity"

// AddressFromEntity convierte la dirección de dominio.
func AddressFromEntity(a entity.Address) AddressDTO {
	return AddressDTO{Street: a.Street, Number: a.Number, Postal: a.Postal, City: a.City, Province: a.Province}
}

// Entity convierte a dirección de dominio.
func (a AddressDTO) Entity() entity.Address {
	return entity.Address{Street: a.Street, Number: a.Number, Postal: a.Postal, City: a.City, Province: a.Province}
}

// ClientFromEntity construye la respuesta de un cliente.
func ClientFromEntity(c *entity.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		NIF:       c.NIF,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   AddressFromEntity(c.Address),
		CreatedBy: c.CreatedBy,
		CompanyID: c.CompanyID,
		Deleted:   c.Deleted,
		DeletedAt: c.DeletedAt,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ProjectFromEntity construye la respuesta de un proyecto; client puede ser nil.
func ProjectFromEntity(p *entity.Project, client *entity.Client) ProjectResponse {
	out := ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ClientID:    p.ClientID,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Status:      p.Status,
		CreatedBy:   p.CreatedBy,
		CompanyID:   p.CompanyID,
		Deleted:     p.Deleted,
		DeletedAt:   p.DeletedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if client != nil {
		c := ClientFromEntity(client)
		out.Client = &c
	}
	return out
}

// DeliveryNoteFromEntity construye la respuesta de un albarán; project puede ser nil.
func DeliveryNoteFromEntity(n *entity.DeliveryNote, project *ProjectResponse) DeliveryNoteResponse {
	out := DeliveryNoteResponse{
		ID:           n.ID,
		Number:       n.Number,
		ProjectID:    n.ProjectID,
		Project:      project,
		Date:         n.Date,
		WorkedHours:  make([]WorkedHoursDTO, 0, len(n.WorkedHours)),
		Materials:    make([]MaterialDTO, 0, len(n.Materials)),
		Status:       n.Status,
		PDFURL:       n.PDFURL,
		Observations: n.Observations,
		TotalAmount:  n.TotalAmount,
		CreatedBy:    n.CreatedBy,
		CompanyID:    n.CompanyID,
		Deleted:      n.Deleted,
		DeletedAt:    n.DeletedAt,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
	for _, h := range n.WorkedHours {
		out.WorkedHours = append(out.WorkedHours, WorkedHoursDTO{
			Person: h.Person, Hours: h.Hours, Date: h.Date, HourlyRate: h.HourlyRate, Description: h.Description,
		})
	}
	for _, m := range n.Materials {
		out.Materials = append(out.Materials, MaterialDTO{
			Name: m.Name, Quantity: m.Quantity, Price: m.Price, Description: m.Description,
		})
	}
	if n.Signature != nil {
		out.Signature = &SignatureDTO{Image: n.Signature.ImageURL, Date: n.Signature.Date, Signer: n.Signature.Signer}
	}
	return out
}

// WorkedHoursToEntity convierte las líneas de horas.
func WorkedHoursToEntity(in []WorkedHoursDTO) []entity.WorkedHours {
	out := make([]entity.WorkedHours, 0, len(in))
	for _, h := range in {
		out = append(out, entity.WorkedHours{
			Person: h.Person, Hours: h.Hours, Date: h.Date, HourlyRate: h.HourlyRate, Description: h.Description,
		})
	}
	return out
}

// MaterialsToEntity convierte las líneas de material.
func MaterialsToEntity(in []MaterialDTO) []entity.Material {
	out := make([]entity.Material, 0, len(in))
	for _, m := range in {
		out = append(out, entity.Material{
			Name: m.Name, Quantity: m.Quantity, Price: m.Price, Description: m.Description,
		})
	}
	return out
}

// CompanyFromEntity construye la respuesta de una compañía.
func CompanyFromEntity(c *entity.Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		CIF:       c.CIF,
		Address:   AddressFromEntity(c.Address),
		FounderID: c.FounderID,
		CreatedAt: c.CreatedAt,
	}
}

// UserFromEntity construye la respuesta de un usuario; company puede ser nil.
func UserFromEntity(u *entity.User, company *entity.Company) UserResponse {
	out := UserResponse{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		Role:           u.Role,
		Validated:      u.Validated,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
	if company != nil {
		c := CompanyFromEntity(company)
		out.Company = &c
	}
	return out
}

// InvitationFromEntity construye la respuesta de una invitación.
func InvitationFromEntity(i *entity.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:           i.ID,
		InviterID:    i.InviterID,
		InviterEmail: i.InviterEmail,
		InviteeID:    i.InviteeID,
		InviteeEmail: i.InviteeEmail,
		CompanyID:    i.CompanyID,
		CompanyName:  i.CompanyName,
		Role:         i.Role,
		Status:       i.Status,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

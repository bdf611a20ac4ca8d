package access

import (
	"yamdb/internal/data/entity"

	"github.com/google/uuid"
)

type reviewResource struct{ r *entity.Review }

func (r reviewResource) Class() ResourceClass { return ClassReview }
func (r reviewResource) OwnerID() uuid.UUID   { return r.r.AuthorID }

type commentResource struct{ c *entity.Comment }

func (c commentResource) Class() ResourceClass { return ClassComment }
func (c commentResource) OwnerID() uuid.UUID   { return c.c.AuthorID }

type identityResource struct{ u *entity.User }

func (i identityResource) Class() ResourceClass { return ClassIdentity }
func (i identityResource) OwnerID() uuid.UUID   { return i.u.ID }

type catalogResource struct{ class ResourceClass }

func (c catalogResource) Class() ResourceClass { return c.class }
func (c catalogResource) OwnerID() uuid.UUID   { return uuid.Nil }

func Review(r *entity.Review) Resource     { return reviewResource{r} }
func Comment(c *entity.Comment) Resource   { return commentResource{c} }
func Identity(u *entity.User) Resource     { return identityResource{u} }
func Catalog(class ResourceClass) Resource { return catalogResource{class} }

package rolloutv1

func (x *GetRolloutRequest) GetID() string {
	if x != nil {
		return x.ID
	}
	return ""
}

func (x *StartRolloutRequest) GetID() string {
	if x != nil {
		return x.ID
	}
	return ""
}

func (x *EvaluateRolloutRequest) GetID() string {
	if x != nil {
		return x.ID
	}
	return ""
}

func (x *RollbackRolloutRequest) GetID() string {
	if x != nil {
		return x.ID
	}
	return ""
}

func (x *DeleteRolloutRequest) GetID() string {
	if x != nil {
		return x.ID
	}
	return ""
}

func (x *ShouldUseNewVersionRequest) GetRolloutID() string {
	if x != nil {
		return x.RolloutID
	}
	return ""
}

func (x *ShouldUseNewVersionRequest) GetUserID() string {
	if x != nil {
		return x.UserID
	}
	return ""
}

func (x *CheckRolloutRequest) GetUserID() string {
	if x != nil {
		return x.UserID
	}
	return ""
}
